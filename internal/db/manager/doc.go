// Package manager checks for and creates PostgreSQL databases.
//
// Identifiers are quoted with pgx.Identifier.Sanitize(), so database names
// containing spaces, quotes or other special characters are safe.
//
//	mgr := manager.New()
//	exists, err := mgr.Exists(ctx, conn, "vaccination_analysis")
//	if err == nil && !exists {
//	    err = mgr.Create(ctx, conn, "vaccination_analysis")
//	}
package manager
