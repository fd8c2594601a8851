package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pdfvault/internal/config"
	"pdfvault/internal/database"
	"pdfvault/internal/domain/document"
	"pdfvault/internal/objectstore"
	jwtsvc "pdfvault/internal/pkg/jwt"
	"pdfvault/internal/pkg/logger"
	"pdfvault/internal/scratch"
)

// seed uploads every *.pdf in -dir for -owner and prints a bearer token for
// that owner, for local development.
func main() {
	dir := flag.String("dir", ".", "directory with PDF files")
	owner := flag.String("owner", "dev", "owner the files are uploaded for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	appLogger := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	store, err := objectstore.New(cfg, appLogger)
	if err != nil {
		log.Fatal("object store init failed:", err)
	}
	area, err := scratch.New(cfg.Storage.Location)
	if err != nil {
		log.Fatal("storage location init failed:", err)
	}

	svc := document.NewService(cfg, document.NewRepository(db), store, area, appLogger)

	paths, err := filepath.Glob(filepath.Join(*dir, "*.pdf"))
	if err != nil {
		log.Fatal(err)
	}
	if len(paths) == 0 {
		log.Printf("no *.pdf files in %s", *dir)
	}

	ctx := context.Background()
	uploaded := 0
	for _, p := range paths {
		if err := uploadFile(ctx, svc, p, *owner); err != nil {
			log.Printf("skip %s: %v", p, err)
			continue
		}
		uploaded++
	}
	log.Printf("seed completed: uploaded=%d owner=%s", uploaded, *owner)

	token, err := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(*owner)
	if err != nil {
		log.Fatal("token generation failed:", err)
	}
	fmt.Println(token)
}

func uploadFile(ctx context.Context, svc *document.Service, path, owner string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	doc, err := svc.Upload(ctx, document.UploadInput{
		Content:     f,
		Filename:    filepath.Base(path),
		ContentType: document.AcceptedContentType,
		Size:        info.Size(),
		Owner:       strings.TrimSpace(owner),
	})
	if err != nil {
		return err
	}
	log.Printf("uploaded %s as %s", doc.DisplayName, doc.ID)
	return nil
}
