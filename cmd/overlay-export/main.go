package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lintang/routeviz/pkg/concurrent"
	"lintang/routeviz/pkg/server/rest/service"
	"lintang/routeviz/pkg/solverclient"
	"lintang/routeviz/pkg/util"

	"github.com/joho/godotenv"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

var (
	solverURL    = flag.String("solver", "", "solver service base url (default $ROUTEVIZ_SOLVER_URL)")
	solverPrefix = flag.String("prefix", "", "solver resource path prefix (default $ROUTEVIZ_SOLVER_PREFIX)")
	ids          = flag.String("ids", "", "comma separated solution ids; empty exports every solution the solver lists")
	outDir       = flag.String("out", "overlays", "output directory for <id>.geojson files")
	workers      = flag.Int("workers", 0, "concurrent render workers (default $ROUTEVIZ_EXPORT_WORKERS or 4)")
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	flag.Parse()
	if *solverURL == "" {
		*solverURL = util.GetEnv("ROUTEVIZ_SOLVER_URL", "http://localhost:8080")
	}
	if *solverPrefix == "" {
		*solverPrefix = util.GetEnv("ROUTEVIZ_SOLVER_PREFIX", "fdo")
	}
	if *workers <= 0 {
		*workers = util.GetEnvInt("ROUTEVIZ_EXPORT_WORKERS", 4)
	}
	timeout := util.GetEnvDuration("ROUTEVIZ_FETCH_TIMEOUT", 30*time.Second)

	client := solverclient.NewClient(*solverURL, *solverPrefix, &http.Client{Timeout: timeout})
	svc := service.NewOverlayService(client, nil, nil, nil)
	ctx := context.Background()

	solutionIDs, err := resolveIDs(ctx, client)
	if err != nil {
		log.Fatal(err)
	}
	if len(solutionIDs) == 0 {
		fmt.Println("no solutions to export")
		return
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	bar := progressbar.NewOptions(len(solutionIDs),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/1][reset] rendering solutions..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	wp := concurrent.NewWorkerPool[concurrent.RenderJob, concurrent.RenderResult](*workers, len(solutionIDs))
	for i, id := range solutionIDs {
		wp.AddJob(concurrent.RenderJob{Index: i, SolutionID: id})
	}
	wp.Close()

	wp.Start(func(job concurrent.RenderJob) concurrent.RenderResult {
		return export(ctx, svc, job)
	})

	results := make([]concurrent.RenderResult, 0, len(solutionIDs))
	for range solutionIDs {
		results = append(results, <-wp.CollectResults())
		bar.Add(1)
	}
	wp.Wait()
	fmt.Println("")

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			slog.Error("export failed", "id", res.SolutionID, "err", res.Err)
			continue
		}
		slog.Info("exported", "id", res.SolutionID, "routes", res.Routes, "file", res.Output)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func resolveIDs(ctx context.Context, client *solverclient.Client) ([]string, error) {
	if strings.TrimSpace(*ids) == "" {
		return client.List(ctx)
	}
	var out []string
	for _, id := range strings.Split(*ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

func export(ctx context.Context, svc *service.OverlayService, job concurrent.RenderJob) concurrent.RenderResult {
	res := concurrent.RenderResult{Index: job.Index, SolutionID: job.SolutionID}

	rendered, err := svc.Render(ctx, job.SolutionID)
	if err != nil {
		res.Err = err
		return res
	}
	res.Routes = len(rendered.Overlay.Groups)

	bb, err := json.MarshalIndent(rendered.Overlay.FeatureCollection(), "", "  ")
	if err != nil {
		res.Err = fmt.Errorf("export %s: encode geojson: %w", job.SolutionID, err)
		return res
	}

	res.Output = filepath.Join(*outDir, safeName(job.SolutionID)+".geojson")
	if err := os.WriteFile(res.Output, bb, 0o644); err != nil {
		res.Err = fmt.Errorf("export %s: %w", job.SolutionID, err)
	}
	return res
}

func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, id)
}
