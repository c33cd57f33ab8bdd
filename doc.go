// Package assetdex provides in-process search over a media asset catalog:
// fuzzy free text, facet selection, structured filters and drill-down facet counts.
//
// # Low-level API
//
//	client, _ := assetdex.New(assetdex.WithCorpusFile("data/catalog.yaml"))
//	defer client.Close()
//	res, _ := client.Search(ctx, assetdex.Query{
//	    Text:    "lebron",
//	    Filters: assetdex.Filters{TagsAll: []string{"Nike"}},
//	})
//
// # Fluent API
//
//	res, _ := client.Query().Text("lebron").Facet("creator", "cr-ana").Order(assetdex.OrderName).Do(ctx)
//
// # Sessions
//
// A Session accepts overlapping queries and delivers only the newest one's result:
//
//	s, _ := client.NewSession()
//	defer s.Close()
//	s.Submit(assetdex.Query{Text: "le"})
//	h, _ := s.Submit(assetdex.Query{Text: "lebron"})
//	res, _ := h.Wait(ctx)
package assetdex
