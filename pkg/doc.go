// Package pkg provides the core libraries for taxotree.
//
// # Overview
//
// Taxotree turns the rows of a four-level category taxonomy (L0 to L3 plus a
// monthly search volume) into a tree diagram. The pkg directory is organized
// into four areas:
//
//  1. [taxonomy] - Domain logic (rows, edge list, nested tree, metric labels)
//  2. [render] - The two renderers and format conversion
//  3. [pipeline] - Orchestration (build → layout → render) with caching
//  4. Infrastructure: [cache], [config], [io], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	host JSON / CSV rows
//	         ↓
//	    [io] package (decode rows, permissive coercion)
//	         ↓
//	    [taxonomy] package (edge list + nested tree)
//	         ↓
//	    [render/treegraph] or [render/collapsible] (layout + drawing)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	rows, _, err := io.ReadRows("rows.json", taxonomy.DefaultSchema())
//	if err != nil {
//	    return err
//	}
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, rows, pipeline.Options{
//	    VizType: render.TypeCollapsible,
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	svg := result.Artifacts[render.FormatSVG]
//
// Tree graph output needs the Graphviz engine: call [pipeline.Runner.Init]
// first.
//
// # Main Packages
//
// [taxonomy] - Row normalization, the label-keyed edge list with aggregated
// stats and ambiguity reporting, and the path-keyed nested tree.
//
// [dag] - The directed graph handed to the tree graph renderer. Labels that
// appear under several parents become nodes with several parents.
//
// [render/treegraph] - The declarative renderer: Graphviz lays out the edge
// list with per-level colours.
//
// [render/collapsible] - The hand-rolled renderer: a horizontal node-link tree
// with expand/collapse state, transitions and Bezier links.
//
// [pipeline] - Build, layout and render stages shared by the CLI and the HTTP
// host, each cached by content hash.
//
// [cache] - File, Redis and MongoDB cache backends behind one interface.
//
// [config] - TOML/YAML configuration with validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events; [observability/prom]
// implements them with Prometheus metrics.
//
// # Testing
//
//	go test ./pkg/...                   # All tests
//	go test ./pkg/taxonomy/...          # Specific package
//	go test -run Example ./pkg/...      # Examples only
//
// Redis and MongoDB tests run when TAXOTREE_REDIS_URL or TAXOTREE_MONGO_URI
// is set.
//
// [taxonomy]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/taxonomy
// [dag]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/dag
// [render]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/render
// [render/treegraph]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/render/treegraph
// [render/collapsible]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/render/collapsible
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/pipeline
// [pipeline.Runner.Init]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/pipeline#Runner.Init
// [cache]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/taxotree/pkg/errors
package pkg
