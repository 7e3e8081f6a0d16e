// Package monitor provides ready-made scope.Monitor implementations:
// Prometheus metrics and OpenTelemetry spans for owner and task lifecycle
// events. Attach one (or several, via Multi) with scope.WithMonitor:
//
//	owner := scope.NewOwner(nil, scope.WithMonitor(monitor.Multi(
//	    monitor.Prometheus(),
//	    monitor.OTel(),
//	)))
package monitor
