// Package synapse provides an embedded Go client for the synapse
// knowledge-capture engine backed by Redis.
//
// The client wires the capture and search pipelines directly over a Redis
// connection, without running the HTTP service. LLM-backed features (query
// intent parsing, result re-ranking, LLM classification) are disabled in
// embedded mode: search degrades to embedding similarity with heuristic
// classification, which keeps the client dependency-free of any chat
// provider.
//
//	client, err := synapse.New(ctx,
//	    synapse.WithRedis("localhost:6379", ""),
//	    synapse.WithEmbedder(myEmbedder),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	item, _ := client.Capture(ctx, "user-1", synapse.CaptureInput{
//	    Title: "Dune",
//	    Type:  "book",
//	})
//	results, _ := client.Search(ctx, "user-1", "sci-fi books", 10)
//
// Without WithEmbedder the client still stores and lists content, but
// every search result carries zero similarity and order falls back to
// recency.
package synapse
