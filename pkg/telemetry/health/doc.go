// Package health runs liveness and readiness checks.
//
// Liveness only reports that the process is up. Readiness runs every
// registered component check concurrently, each bounded by the checker
// timeout:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("provider", func(ctx context.Context) error {
//		if !provider.IsHealthy() {
//			return errors.New("provider unhealthy")
//		}
//		return nil
//	})
//	status := checker.CheckReadiness(ctx)
//
// The HTTP endpoints live in pkg/proxy/handlers.
package health
