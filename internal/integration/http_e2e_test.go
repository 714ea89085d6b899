//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/go-cmp/cmp"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "eiendom_showcase/internal/adapters/http_server"
	redisad "eiendom_showcase/internal/adapters/redis"
	"eiendom_showcase/internal/app"
	"eiendom_showcase/internal/domain"
	filestore "eiendom_showcase/internal/storage/file"
	mysqlrepo "eiendom_showcase/internal/storage/mysql"
)

// ---------- helpers ----------
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping docker-backed test in -short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=eiendom"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/eiendom?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res.StatusCode
}

// ---------- the test ----------

// Files are imported into MySQL and served back through the real router with
// a Redis cache in front.
func TestHTTP_EndToEnd_FilesToMySQLToAPI(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	dir := t.TempDir()
	docs := map[string]string{
		"vulkan.json": `{"id":"vulkan-12","adresse":"Vulkan 12, 0178 Oslo","gnr":208,"bnr":12,
			"plaaceData":{"nokkeldata":{"energimerke":"B","areal":"1 200"}},
			"metadata":{"sistOppdatert":"2025-11-11T18:00:00Z"}}`,
		"thorvald.yaml": "adresse: Thorvald Meyers gate 5, 0555 Oslo\nplaaceData:\n  nokkeldata:\n    byggeaar: 1898\n",
	}
	for name, body := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	store, err := filestore.Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	files, _ := store.GetAll(ctx)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	repo := mysqlrepo.New(db)
	ing := app.NewIngestionService(repo, cache)
	for _, p := range files {
		if err := ing.IngestProperty(ctx, p); err != nil {
			t.Fatalf("ingest %s: %v", p.ID, err)
		}
	}

	srv := server.New()
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(repo, cache, time.Minute)}, server.APIOptions{})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	var list []domain.Property
	if code := getJSON(t, ts.URL+"/properties", &list); code != http.StatusOK {
		t.Fatalf("list status %d", code)
	}
	if len(list) != 2 {
		t.Fatalf("list has %d items, want 2", len(list))
	}

	for _, want := range files {
		var got domain.Property
		if code := getJSON(t, ts.URL+"/properties/"+want.ID, &got); code != http.StatusOK {
			t.Fatalf("detail %s status %d", want.ID, code)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("detail %s differs from file (-file +api):\n%s", want.ID, diff)
		}
	}

	if code := getJSON(t, ts.URL+"/api/eiendommer/missing", nil); code != http.StatusNotFound {
		t.Fatalf("missing id status %d, want 404", code)
	}
}
