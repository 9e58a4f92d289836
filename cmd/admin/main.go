package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniAdmin/internal/admin"
	"MiniAdmin/internal/auth"
	"MiniAdmin/internal/blog"
	"MiniAdmin/internal/career"
	"MiniAdmin/internal/contact"
	"MiniAdmin/internal/ident"
	"MiniAdmin/internal/product"
	"MiniAdmin/internal/upload"
	"MiniAdmin/pkg/kit"
)

func main() {
	service := "admin"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "5000")
	uploadDir := getenv("UPLOAD_DIR", "uploads")
	legacyFallback := getenv("LEGACY_ID_FALLBACK", "true") == "true"
	removeOrphans := getenv("UPLOADS_REMOVE_ORPHANS", "false") == "true"
	authRequired := getenv("AUTH_REQUIRED", "false") == "true"

	creds, err := auth.NewCredentials(getenv("ADMIN_USER", "admin"), getenv("ADMIN_PASS", "admin123"))
	if err != nil {
		log.Fatal("admin credentials", zap.Error(err))
	}
	jwtMaker := auth.NewTokenMaker(getenv("JWT_SECRET", "dev-secret"))

	store := buildProductStore(log, legacyFallback)

	saver := &upload.Saver{
		Dir:           uploadDir,
		PublicPrefix:  "uploads",
		RemoveOrphans: removeOrphans,
	}
	minter := &ident.Minter{}

	deps := admin.Deps{
		Log:      log,
		Service:  service,
		Registry: prometheus.NewRegistry(),

		MetricsEnabled: getenv("METRICS_ENABLED", "false") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),

		Products: &product.Server{Store: store, Files: saver, IDs: minter, Log: log},
		Blogs:    &blog.Server{Store: blog.NewStore(legacyFallback), Files: saver, IDs: minter, Log: log},
		Careers:  &career.Server{Store: career.NewStore(), Log: log},
		Contacts: &contact.Server{Store: contact.NewStore(), Log: log},
		Auth:     &auth.Server{Log: log, Creds: creds, JWT: jwtMaker},

		UploadDir:    uploadDir,
		AuthRequired: authRequired,
		JWT:          jwtMaker,
	}

	if err := kit.RunHTTPServer(":"+port, admin.NewHandler(deps), log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildProductStore(log *zap.Logger, legacyFallback bool) product.Store {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		mem := product.NewMemStore(legacyFallback)
		seedSample(mem)
		return mem
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}

	pg := product.NewPostgresStore(db, legacyFallback)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	log.Info("products backed by postgres")
	return pg
}

// seedSample mirrors the record the mock backend always started with, so a
// fresh dev server has something for the dashboard to render.
func seedSample(mem *product.MemStore) {
	oldPrice := 1299.0
	_ = mem.Insert(context.Background(), product.Product{
		ID:          "1",
		Name:        "Sample Product",
		Description: "This is a sample product",
		Price:       999,
		OldPrice:    &oldPrice,
		IsNew:       true,
		Tags:        []string{"sample", "test"},
		ImagePath:   "uploads/sample.jpg",
		CreatedAt:   time.Now().UTC(),
	})
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
