// Package workspace serves the protected dashboard and the mock project
// data behind it: navigation modules, code snippets, agent logs, the
// project timeline and commit history. The data is YAML embedded in the
// binary.
//
// The project tracker under /api/workspace/tracker records timeline
// phases, raise requests, review requests and commits in a kv.Store.
// Requests are approved by their position in the list.
//
//	data, err := workspace.Load()
//	if err != nil {
//		return err
//	}
//	ws := workspace.NewService(data,
//		workspace.WithStore(store),
//		workspace.WithGuards(api.Middleware(), authctx.Require(account.Deny)),
//	)
//	r.With(sessions.RequireAuth).Get("/dashboard", ws.Dashboard())
//	r.Mount("/api/workspace", ws.Handle())
package workspace
