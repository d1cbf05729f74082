package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"proxynest/internal/shared/config"
	"proxynest/internal/shared/logger"
	"proxynest/internal/shared/types"
	"proxynest/pool"
	"proxynest/pool/fetcher"
	"proxynest/pool/storage"
)

func main() {
	configDir := flag.String("configdir", "configs", "Path to config directory")
	protocols := flag.String("protocol", "", "Comma separated protocols to include (http,https,socks4,socks5)")
	countries := flag.String("country", "", "Comma separated country codes to include")
	anonymity := flag.String("anonymity", "", "Comma separated anonymity levels to include")
	flag.Parse()

	iniPath := filepath.Join(*configDir, "proxynest.ini")

	cfg := new(types.Config)
	if _, err := os.Stat(iniPath); os.IsNotExist(err) {
		// Running without a config file is fine, the defaults apply.
		config.ApplyDefaults(cfg)
	} else if err := config.LoadIni(cfg, iniPath); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", iniPath, err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewFileStorage(cfg.PoolConf.DataFile)
	manager := pool.NewManager(cfg.PoolConf, store)

	switch cmd := flag.Arg(0); cmd {
	case "fetch":
		runFetch(manager, cfg.FetchConf)
	case "get", "":
		runGet(manager, pool.Filter{
			Protocol:  splitList(*protocols),
			Country:   splitList(*countries),
			Anonymity: splitList(*anonymity),
		})
	case "list":
		runList(manager)
	case "clear":
		if err := manager.RemoveAll(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to clear the pool")
		}
		logger.Info().Msg("Pool cleared.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q (expected fetch, get, list or clear)\n", cmd)
		os.Exit(2)
	}
}

func runFetch(manager *pool.Manager, cfg types.FetchConf) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	sources := []fetcher.Source{
		fetcher.NewJSONListSource(
			"https://api.proxyscrape.com/v4/free-proxy-list/get?request=display_proxies&proxy_format=protocolipport&format=json",
			timeout, cfg.Retries,
		),
		fetcher.NewFreeProxyListSource("", timeout),
		fetcher.NewProxyListDownloadSource("http", timeout),
		fetcher.NewProxyListDownloadSource("socks5", timeout),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	candidates := fetcher.FetchAll(ctx, sources)
	if len(candidates) == 0 {
		logger.Warn().Msg("No candidates fetched.")
		return
	}
	if err := manager.Add(candidates); err != nil {
		logger.Fatal().Err(err).Msg("Failed to add fetched candidates")
	}
	logger.Info().Int("pool_size", manager.Size()).Msg("Fetch complete.")
}

func runGet(manager *pool.Manager, include pool.Filter) {
	url, err := manager.SelectURL(pool.SelectOptions{Include: include})
	switch {
	case errors.Is(err, pool.ErrInsufficientPool):
		logger.Fatal().Err(err).Msg("Pool below minimum size, run 'fetch' first")
	case errors.Is(err, pool.ErrNoProxyAvailable):
		logger.Fatal().Err(err).Msg("No proxy matches the given filters")
	case err != nil:
		logger.Fatal().Err(err).Msg("Selection failed")
	}
	fmt.Println(url)
}

func runList(manager *pool.Manager) {
	for i, rec := range manager.Records() {
		fmt.Printf("%4d  %-40s %-7s %-8s %-12s failed=%d succeed=%d in_row=%d\n",
			i, rec.URL, rec.Protocol, rec.Country, rec.Anonymity,
			rec.TimesFailed, rec.TimesSucceed, rec.TimesFailedInRow)
	}
	fmt.Printf("total: %d\n", manager.Size())
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
