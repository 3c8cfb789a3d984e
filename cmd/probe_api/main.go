// probe_api sondea los endpoints del backend de horarios e indica cuáles responden JSON.
//
// Uso: go run ./cmd/probe_api [baseURL]
// Por defecto usa API_BASE_URL (o http://localhost:8000/api).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jhoicas/gestion-horarios/internal/infrastructure/apiclient"
	"github.com/jhoicas/gestion-horarios/pkg/config"
)

func main() {
	base := ""
	if len(os.Args) > 1 {
		base = os.Args[1]
	} else {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		base = cfg.API.BaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sondeando endpoints en %s\n", base)
	prober := apiclient.NewProber(base, nil)
	results := prober.Probe(ctx, apiclient.DefaultProbeEndpoints(), func(r apiclient.ProbeResult) {
		if r.Err != nil {
			fmt.Printf("- %s %s ... ERROR: %v\n", r.Method, r.Path, r.Err)
			return
		}
		fmt.Printf("- %s %s ... %d %s - %s\n", r.Method, r.Path, r.Status, jsonTag(r.IsJSON, "(JSON)", "(no JSON)"), orUnknown(r.MediaType()))
	})

	fmt.Println("\nResumen:")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s %s -> ERROR: %v\n", r.Method, r.Path, r.Err)
			continue
		}
		if !r.IsJSON {
			failed++
		}
		fmt.Printf("%s %s -> %d %s %s\n", r.Method, r.Path, r.Status, jsonTag(r.IsJSON, "[JSON]", "[HTML/Otro]"), r.MediaType())
	}
	fmt.Println("\nLos endpoints marcados [JSON] se pueden consumir desde el shell; los [HTML/Otro] devuelven vistas y no sirven como API.")

	if failed > 0 {
		os.Exit(2)
	}
}

func jsonTag(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func orUnknown(s string) string {
	if s == "" {
		return "desconocido"
	}
	return s
}
