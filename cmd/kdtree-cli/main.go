// cmd/kdtree-cli/main.go
//
// kdtree-cli builds a tree from a CSV file of points and runs a single
// nearest-neighbor query against it.
//
// Usage:
//
//	kdtree-cli -csv points.csv -query 0.1,0.2,0.3 -n 5
//
// Each CSV row must have one more field than the query's dimension: the
// leading fields are coordinates, the trailing field is the integer item
// identifier.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"kdtree/examples/csvload"
	"kdtree/pkg/arenastats"
	"kdtree/pkg/kdpoint"
	"kdtree/pkg/kdtree"
)

func main() {
	csvPath := flag.String("csv", "", "path to a CSV file of points (trailing column is the item id)")
	queryStr := flag.String("query", "", "comma-separated query coordinates")
	n := flag.Int("n", 1, "number of nearest neighbors to report")
	bucketSize := flag.Int("bucket-size", 32, "leaf bucket size")
	flag.Parse()

	if *csvPath == "" || *queryStr == "" {
		fmt.Fprintln(os.Stderr, "usage: kdtree-cli -csv points.csv -query 0.1,0.2,0.3 [-n 5] [-bucket-size 32]")
		os.Exit(1)
	}

	query, err := parseQuery(*queryStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -query: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", *csvPath, err)
		os.Exit(1)
	}
	defer f.Close()

	tree, err := csvload.LoadTree(f, kdtree.Config{
		Dimension:  len(query),
		BucketSize: *bucketSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load points: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("loaded %d points, dimension %d\n", tree.Size(), tree.Dimension())

	budget := arenastats.NewDefaultBudget()
	budget.OnPressure(func(currentUsage, limit int64) {
		fmt.Fprintf(os.Stderr, "warning: arena usage %d bytes approaching budget of %d bytes\n", currentUsage, limit)
	})
	budget.Report("stems", tree.StemBytes(), arenastats.PriorityHot)
	budget.Report("leaves", tree.LeafBytes(), arenastats.PriorityHot)
	stats := budget.Snapshot()
	fmt.Printf("arena usage: %d bytes (stems=%d leaves=%d)\n",
		stats.TotalUsage, stats.ComponentUsage["stems"], stats.ComponentUsage["leaves"])

	if *n == 1 {
		dist, item, ok := tree.NearestOne(query, kdpoint.SquaredEuclidean[float64])
		if !ok {
			fmt.Fprintln(os.Stderr, "tree is empty")
			os.Exit(1)
		}
		fmt.Printf("nearest: item=%d dist=%g\n", item, dist)
		return
	}

	for dist, item := range tree.NearestN(query, *n, kdpoint.SquaredEuclidean[float64]) {
		fmt.Printf("item=%d dist=%g\n", item, dist)
	}
}

func parseQuery(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d (%q): %w", i, f, err)
		}
		out[i] = v
	}
	return out, nil
}
