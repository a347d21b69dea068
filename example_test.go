package oceannotes_test

import (
	"context"
	"fmt"
	"log"
	"os"

	oceannotes "github.com/kavia-common/simple-notes-app-45797-45806"
)

// Example_basic demonstrates how to open a store, create a note and search it.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "oceannotes-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := oceannotes.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Create a note
	note, err := svc.Create(ctx, oceannotes.Fields{Title: "Groceries", Content: "milk, eggs"})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Edit it
	content := "milk, eggs, bread"
	if _, _, err := svc.Update(ctx, note.ID, oceannotes.Patch{Content: &content}); err != nil {
		log.Fatal(err)
	}

	// 3. Read it back
	got, ok, err := svc.Get(ctx, note.ID)
	if err != nil || !ok {
		log.Fatal("note missing")
	}

	fmt.Printf("%s: %s\n", got.Title, got.Content)
	// Output:
	// Groceries: milk, eggs, bread
}

// Example_memory shows the in-memory adapter, handy for throwaway sessions.
func Example_memory() {
	svc, err := oceannotes.New("", oceannotes.WithAdapter("memory"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, title := range []string{"Ideas", "Todo"} {
		if _, err := svc.Create(ctx, oceannotes.Fields{Title: title}); err != nil {
			log.Fatal(err)
		}
	}

	notes, err := svc.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(notes))
	// Output:
	// 2
}
