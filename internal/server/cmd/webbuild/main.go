// Command webbuild bundles the dialogue client into web/client.js.
// Run it from internal/server via go generate.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

func main() {
	minify := flag.Bool("minify", false, "minify the bundle and drop the inline source map")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}

	opts := buildOptions(wd, *minify)
	result := api.Build(opts)
	for _, message := range result.Warnings {
		log.Printf("esbuild warning: %s", message.Text)
	}
	if len(result.Errors) > 0 {
		for _, message := range result.Errors {
			log.Printf("esbuild error: %s", message.Text)
		}
		log.Fatalf("esbuild failed with %d error(s)", len(result.Errors))
	}
	log.Printf("wrote %s", opts.Outfile)
}

func buildOptions(wd string, minify bool) api.BuildOptions {
	sourcemap := api.SourceMapInline
	if minify {
		sourcemap = api.SourceMapNone
	}
	return api.BuildOptions{
		EntryPoints:       []string{filepath.Join(wd, "web", "src", "main.ts")},
		Outfile:           filepath.Join(wd, "web", "client.js"),
		AbsWorkingDir:     wd,
		Bundle:            true,
		Format:            api.FormatIIFE,
		Target:            api.ES2018,
		Platform:          api.PlatformBrowser,
		LogLevel:          api.LogLevelInfo,
		Sourcemap:         sourcemap,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Write:             true,
		Loader: map[string]api.Loader{
			".ts": api.LoaderTS,
		},
	}
}
