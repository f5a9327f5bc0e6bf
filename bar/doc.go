// Package bar builds and renders the debug bar.
//
// The flow for one response is:
//
//	items := bar.DefaultItems(env)        // fixed set, weights 10..130
//	items.Set(bar.HideItemID, bar.HideItem(env))
//	for _, alter := range alters {       // registration order
//		alter(env, items)
//	}
//	links := bar.Finalize(env, items)     // stable sort, access filter, decoration
//	frag, _ := bar.Render(bar.View{Links: links, Class: bar.Classes(env)})
//	body, ok := bar.Inject(body, frag)    // before the last </body>
//
// Titles are a small tagged union: Text is escaped when rendered, Markup is sanitized
// with bluemonday. Nothing in this package writes to the network; the root package does
// the response plumbing.
package bar
