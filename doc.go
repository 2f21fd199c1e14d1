/*
Package tend is a habit/routine tracking client with a conversational
coach, backed by a remote database-and-functions service.

The package wires two cores behind one facade. The synchronization
store (pkg/store) owns the single in-process cache of routines, habits
and completion logs, with single-flight fetching, optimistic toggles
and cascade deletes. The coach (pkg/coach) is a three-state machine
(idle/thinking/talking) that serializes AI requests and drives an
external animation collaborator.

This Hexagonal Architecture keeps the cores free of transport and
rendering concerns: the remote service, the notification layer and the
animator are ports (pkg/ports) with adapters for HTTP, in-memory and
Redis backends (pkg/adapters).

# Usage

	api := httpapi.New(cfg.Remote.URL, cfg.Remote.AnonKey)
	client := tend.New(api,
		tend.WithNotifier(notify.NewTerminal(os.Stderr)),
	)

	if err := client.Store.FetchRoutinesAndHabits(ctx); err != nil {
		log.Fatal(err)
	}
	reply, _ := client.Ask(ctx, "how do I keep an evening routine?")
	fmt.Println(reply)
*/
package tend
