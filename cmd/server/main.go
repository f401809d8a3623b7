package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sync"
	"time"

	"schemalens/internal/db/adapters"
	"schemalens/internal/logger"

	"schemalens/internal/db"
	"schemalens/internal/schema"
	"schemalens/pkg/config"
)

var (
	// activeMu serializes every call through the active adapter;
	// adapters are not safe for concurrent use.
	activeMu    sync.Mutex
	active      db.Adapter
	defaultPort = 8080
)

// setActive installs a connected adapter, disconnecting the previous one.
func setActive(a db.Adapter) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		active.Disconnect()
	}
	active = a
}

func main() {
	// flags
	cfgPath := flag.String("config", "", "path to settings YAML (optional; DB_* env vars override)")
	port := flag.Int("port", defaultPort, "http port")
	timeout := flag.Int("timeout", 10, "db connect timeout seconds")
	flag.Parse()

	adapters.SetConnectTimeout(time.Duration(*timeout) * time.Second)
	settings := config.Load(*cfgPath)

	// connect at startup when the configuration names a backend
	if settings.DBType != "" {
		adapter, err := db.GetConnection(settings)
		if err != nil {
			logger.Fatal("%v", err)
		}
		if adapter.Connect() {
			setActive(adapter)
			logger.Info("connected to %s, containers: %v", settings.DBType, adapter.ListContainers())
		} else {
			logger.Warn("initial connection to %s failed; POST /api/connect to retry", settings.DBType)
		}
	}

	// connect endpoint: user posts settings to create/test a connection
	http.HandleFunc("/api/connect", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var s config.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		adapter, err := db.GetConnection(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !adapter.Connect() {
			http.Error(w, "connection failed; see server log", http.StatusBadGateway)
			return
		}
		setActive(adapter)

		activeMu.Lock()
		names := active.ListContainers()
		activeMu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			OK         bool     `json:"ok"`
			Containers []string `json:"containers"`
		}{OK: true, Containers: names})
	})

	// containers endpoint: names from the active connection
	http.HandleFunc("/api/containers", func(w http.ResponseWriter, r *http.Request) {
		activeMu.Lock()
		defer activeMu.Unlock()
		if active == nil {
			http.Error(w, "no active connection; POST /api/connect to create one", http.StatusBadRequest)
			return
		}
		names := active.ListContainers()
		if names == nil {
			names = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Containers []string `json:"containers"`
		}{Containers: names})
	})

	// schema endpoint: one container by name, or every container
	http.HandleFunc("/api/schema", func(w http.ResponseWriter, r *http.Request) {
		activeMu.Lock()
		defer activeMu.Unlock()
		if active == nil {
			http.Error(w, "no active connection; POST /api/connect to create one", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if name := r.URL.Query().Get("container"); name != "" {
			json.NewEncoder(w).Encode(active.DescribeContainer(name))
			return
		}
		all := map[string]schema.ContainerSchema{}
		for _, name := range active.ListContainers() {
			all[name] = active.DescribeContainer(name)
		}
		json.NewEncoder(w).Encode(all)
	})

	// HTTP server
	addr := fmt.Sprintf(":%d", *port)
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Info("listening on %s", addr)
	logger.Info("registered backends: %v", db.RegisteredTypes())
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("%v", err)
	}
}
