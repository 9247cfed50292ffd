// Package pg connects to PostgreSQL with pgx/v5 and applies the schema the
// postgres key-value backend needs.
//
// Connect builds a *pgxpool.Pool from Config and pings it, retrying a few
// times before giving up. Migrate runs the goose migrations embedded in the
// binary, so no migration files have to ship next to it.
//
//	cfg, err := config.Load[pg.Config]()
//	if err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	store := kv.NewPostgresStore(pool)
package pg
