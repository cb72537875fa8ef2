// Command lp-sssp is the CLI surface around the sssp solver: parse a graph
// off disk, run one algorithm variant, report the distance array and
// correctness check. Command-line parsing, reporting, and timers are
// explicitly the surrounding program's job, not the core engine's (spec §1
// Non-goals) -- this file is that surrounding program, built the way the
// teacher's own lp-* commands are: stdlib flag, zerolog for progress, and a
// thin graph-file loader.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ssallinen-style/parasssp/enforce"
	"github.com/ssallinen-style/parasssp/graph"
	"github.com/ssallinen-style/parasssp/internal/ulog"
	"github.com/ssallinen-style/parasssp/internal/utils"
	"github.com/ssallinen-style/parasssp/sssp"
	"github.com/ssallinen-style/parasssp/verify"
)

func main() {
	var (
		startNode      = flag.Uint("startNode", 0, "source node id")
		reportNode     = flag.Int("reportNode", -1, "print the distance to this node id; -1 to skip")
		delta          = flag.Int("delta", 10, "OBIM priority bucket width, as a power-of-two shift")
		algo           = flag.String("algo", "async", "algorithm variant: serial, async(WithCas), asyncFifo, "+
			"asyncBlindObim, asyncBlindFifo, "+
			"asyncBlind{Obim,Fifo}{HSet,MSet,OSet}, asyncPP")
		symmetricGraph = flag.Bool("symmetricGraph", false, "treat the input edge list as undirected: add the reverse of every edge")
		graphTranspose = flag.String("graphTranspose", "", "write the transposed edge list to this path instead of solving")
		_              = flag.Int("memoryLimit", 0, "advisory memory ceiling in MB; unenforced by the core solver")
		threads        = flag.Int("t", 0, "worker thread count; <1 means GOMAXPROCS")
		verbosity      = flag.Int("v", 0, "log verbosity: 0=info, 1=debug, 2+=trace")
		noColour       = flag.Bool("nc", false, "disable ANSI colour in console log output")
	)
	flag.Parse()

	ulog.SetConsole(*noColour)
	ulog.SetLevel(*verbosity)

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: lp-sssp [flags] <graph-edge-list-path>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	rawEdges, n := loadEdgeList(path, *symmetricGraph)

	if *graphTranspose != "" {
		writeTransposed(*graphTranspose, rawEdges)
		return
	}

	g := graph.Build(n, rawEdges)

	variant, err := sssp.ParseVariant(*algo)
	if err != nil {
		log.Error().Err(err).Msg("lp-sssp: bad --algo")
		os.Exit(1)
	}

	source := uint32(*startNode)
	enforce.ENFORCE(source < n, "startNode out of range")

	opts := sssp.Options{Variant: variant, NumWorkers: *threads, DeltaShift: uint(*delta)}
	result := sssp.Solve(g, source, opts)

	log.Info().
		Str("variant", result.Variant.String()).
		Int("workers", result.NumWorkers).
		Dur("elapsed", result.Elapsed).
		Uint64("badWork", result.BadWork).
		Uint64("emptyWork", result.EmptyWork).
		Int("badWorkMedian", result.BadWorkMedian).
		Int("emptyWorkMedian", result.EmptyWorkMedian).
		Msg("lp-sssp: solve finished")

	report := verify.Check(g, result.State, source)
	verify.LogSummary(report)

	if *reportNode >= 0 {
		d := result.State.Load(uint32(*reportNode))
		log.Info().Msg("dist[" + utils.V(*reportNode) + "] = " + utils.V(d))
	}

	if !report.OK() {
		os.Exit(1)
	}
}

// loadEdgeList reads a plain "src dst weight" per line edge list (blank
// lines and lines starting with '#' ignored), returning the raw edges and
// one past the largest node id seen -- the CSR builder's required node
// count. symmetric duplicates every edge in reverse, for input files that
// only list one direction of an undirected graph.
func loadEdgeList(path string, symmetric bool) ([]graph.RawEdge, uint32) {
	f, err := os.Open(path)
	enforce.ENFORCE(err == nil, "opening graph file", err)
	defer f.Close()

	var edges []graph.RawEdge
	var maxNode uint32

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<24)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		enforce.ENFORCE(len(fields) >= 2, "malformed edge line", line)

		src := parseUint32(fields[0])
		dst := parseUint32(fields[1])
		var weight graph.Distance = 1
		if len(fields) >= 3 {
			weight = graph.Distance(parseUint32(fields[2]))
		}

		edges = append(edges, graph.RawEdge{Src: src, Dst: dst, Weight: weight})
		if symmetric {
			edges = append(edges, graph.RawEdge{Src: dst, Dst: src, Weight: weight})
		}
		maxNode = max3(maxNode, src, dst)
	}
	enforce.ENFORCE(scanner.Err() == nil, "reading graph file", scanner.Err())

	return edges, maxNode + 1
}

func writeTransposed(path string, edges []graph.RawEdge) {
	f, err := os.Create(path)
	enforce.ENFORCE(err == nil, "creating transpose output", err)
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, e := range edges {
		fmt.Fprintf(w, "%d %d %d\n", e.Dst, e.Src, e.Weight)
	}
}

func parseUint32(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	enforce.ENFORCE(err == nil, "malformed node id", s)
	return uint32(v)
}

func max3(a, b, c uint32) uint32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
