package service_test

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndsmnv/tinylink/internal/db/memorystorage"
	"github.com/ndsmnv/tinylink/internal/keygen"
	"github.com/ndsmnv/tinylink/internal/service"
)

// ExampleService_ShortenURL demonstrates the full shorten-and-resolve cycle.
func ExampleService_ShortenURL() {
	db, _ := memorystorage.New()
	svc := service.New(db, keygen.New(keygen.DefaultKeyLength), "http://localhost:8080", bcrypt.MinCost)

	usr, _ := svc.RegisterUser(context.Background(), "a@x.com", "pw1")
	entry, _ := svc.ShortenURL(context.Background(), "http://example.com", usr.ID)

	resolved, _ := svc.GetURL(context.Background(), entry.ID)
	fmt.Println(resolved.LongURL)

	// Output:
	// http://example.com
}
