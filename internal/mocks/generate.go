// Package mocks provides mock implementations for testing the trust core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the ports in internal/core. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	archive := mocks.NewMockEventArchive(ctrl)
//	archive.EXPECT().Archive(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for EventArchive interface from internal/core package.
// This creates MockEventArchive with methods: Archive, PurgeOlderThan.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=event_archive_mock.go github.com/campushq/campus-trust/internal/core EventArchive

// Generate mock for AlertNotifier interface from internal/core package.
// This creates MockAlertNotifier with methods: Notify.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=alert_notifier_mock.go github.com/campushq/campus-trust/internal/core AlertNotifier
