package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/bvogt/anncat/internal/config"
	"github.com/bvogt/anncat/internal/docs"
	"github.com/bvogt/anncat/internal/gitclient"
	"github.com/bvogt/anncat/internal/repo"
	"github.com/bvogt/anncat/internal/store"
	"github.com/bvogt/anncat/internal/web"
	"github.com/peterbourgon/ff/v3"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

func gitClientAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("ANNCAT_GIT_USER")
	if user == "" {
		return nil
	}
	pass := os.Getenv("ANNCAT_GIT_PASSWORD")
	return &gitclient.Auth{
		Username: user,
		Password: pass,
	}
}

// Options contains program options that can be set via command-line flags or environment variables.
type Options struct {
	Addr          string
	CatalogDir    string
	RootDir       string
	GitURL        string
	GitRef        string
	ConfigFile    string
	BaseDir       string
	PageCacheSize int
}

func main() {
	if len(os.Args) < 2 {
		// Default to "serve"
		runServe(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "gen-docs":
		runGenDocs(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		// Also default to serve if the argument looks like a flag
		if strings.HasPrefix(os.Args[1], "-") {
			runServe(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command %q. Available commands: serve, gen-docs\n", os.Args[1])
		os.Exit(1)
	}
}

// loadBundle loads the application configuration from the store.
// A missing config file is not an error; defaults apply.
func loadBundle(st store.Store, configFile string) (*config.Bundle, error) {
	bundle, err := config.Load(st, configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No config file at %q, using defaults", configFile)
			return &config.Bundle{}, nil
		}
		return nil, err
	}
	return bundle, nil
}

func runServe(args []string) {
	var opts Options
	fs := flag.NewFlagSet("anncat serve", flag.ExitOnError)
	fs.StringVar(&opts.Addr, "addr", "localhost:8080", "Address to listen on")
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local data store")
	fs.StringVar(&opts.CatalogDir, "catalog-dir", "catalog", "Path to the catalog directory containing YAML files (relative to git root or local -root-dir)")
	fs.StringVar(&opts.ConfigFile, "config", "anncat.yml", "Path to the configuration YAML file (relative to git root or local -root-dir)")
	fs.StringVar(&opts.GitURL, "git-url", "", "URL of the git repository to use as the data store")
	fs.StringVar(&opts.GitRef, "git-ref", "", "Git ref (branch or tag) to use initially")
	fs.StringVar(&opts.BaseDir, "base-dir", "", "Base directory for resource files. If empty, uses embedded resources (recommended for production).")
	fs.IntVar(&opts.PageCacheSize, "page-cache-size", 1024, "Max. number of rendered detail pages to hold in the in-memory LRU cache")

	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("ANNCAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Using config from flags/env vars: %+v", opts)

	source := createSource(opts)
	st, err := source.Store(opts.GitRef)
	if err != nil {
		log.Fatalf("Cannot access store: %v", err)
	}

	bundle, err := loadBundle(st, opts.ConfigFile)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	r, err := repo.Load(st, bundle.Catalog, opts.CatalogDir)
	if err != nil {
		log.Fatalf("Could not load catalog: %v", err)
	}
	log.Printf("Read %d equivalence records from catalog", r.NumRecords())

	server, err := web.NewServer(
		web.ServerOptions{
			Addr:      opts.Addr,
			BaseDir:   opts.BaseDir,
			CacheSize: opts.PageCacheSize,
			Version:   Version,
		},
		r,
		bundle.UI,
	)
	if err != nil {
		log.Fatalf("Could not create server: %v", err)
	}

	log.Fatal(server.Serve()) // Never returns
}

func runGenDocs(args []string) {
	var opts Options
	fs := flag.NewFlagSet("anncat gen-docs", flag.ExitOnError)
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local data store")
	fs.StringVar(&opts.CatalogDir, "catalog-dir", "catalog", "Path to the catalog directory containing YAML files (relative to git root or local -root-dir)")
	fs.StringVar(&opts.ConfigFile, "config", "anncat.yml", "Path to the configuration YAML file (relative to git root or local -root-dir)")
	fs.StringVar(&opts.GitURL, "git-url", "", "URL of the git repository to use as the data store")
	fs.StringVar(&opts.GitRef, "git-ref", "", "Git ref (branch or tag) to use initially")

	var outputDir string
	fs.StringVar(&outputDir, "out-dir", "docs", "Output directory for the documentation")

	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("ANNCAT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}

	source := createSource(opts)
	st, err := source.Store(opts.GitRef)
	if err != nil {
		log.Fatalf("Cannot access store: %v", err)
	}

	bundle, err := loadBundle(st, opts.ConfigFile)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	r, err := repo.Load(st, bundle.Catalog, opts.CatalogDir)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	gen := docs.NewGenerator(r)
	if err := gen.Generate(outputDir); err != nil {
		log.Fatalf("Failed to generate documentation: %v", err)
	}
	log.Printf("Documentation generated in %q", outputDir)
}

func createSource(opts Options) store.Source {
	if opts.GitURL != "" {
		auth := gitClientAuthFromEnv()
		log.Printf("Retrieving catalog from git URL %s", opts.GitURL)
		client, err := gitclient.New(opts.GitURL, auth)
		if err != nil {
			log.Fatalf("Failed to retrieve git repo: %v", err)
		}
		ref := opts.GitRef
		if ref == "" {
			ref, err = client.DefaultBranch()
			if err != nil {
				log.Fatalf("No git-ref specified and no default branch found: %v", err)
			}
			log.Printf("Using default git branch %q", ref)
		}
		return store.NewGitSource(client, ref)
	} else if opts.RootDir != "" {
		log.Printf("Using local store at %s", opts.RootDir)
		return store.NewDiskStore(opts.RootDir)
	} else {
		log.Fatalf("Neither -root-dir nor -git-url specified")
		return nil
	}
}
