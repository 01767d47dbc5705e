package stores_test

import (
	"context"
	"fmt"
	"log"

	"github.com/zerocrud/zerocrud/pkg/entity"
	"github.com/zerocrud/zerocrud/pkg/stores"
)

type Contact struct {
	ID    int64  `db:"id"`
	Name  string `db:"name" validate:"required"`
	Email string `db:"email"`
}

// ExampleNewMemoryStore demonstrates the in-memory backend with its
// auto-increment identity counter.
func ExampleNewMemoryStore() {
	codec, err := entity.NewStructCodec[Contact]()
	if err != nil {
		log.Fatal(err)
	}
	store := stores.NewMemoryStore(codec)

	ctx := context.Background()
	alice, _ := store.Create(ctx, entity.Fields{"name": "Alice", "email": "alice@test.com"})
	bob, _ := store.Create(ctx, entity.Fields{"name": "Bob"})

	fmt.Println(alice.ID, alice.Name)
	fmt.Println(bob.ID, bob.Name)
	// Output:
	// 1 Alice
	// 2 Bob
}

// ExampleMemoryStore_Update demonstrates partial-update merge semantics.
func ExampleMemoryStore_Update() {
	codec, err := entity.NewStructCodec[Contact]()
	if err != nil {
		log.Fatal(err)
	}
	store := stores.NewMemoryStore(codec)

	ctx := context.Background()
	created, _ := store.Create(ctx, entity.Fields{"name": "Alice", "email": "alice@test.com"})

	updated, _, _ := store.Update(ctx, created.ID, entity.Fields{"name": "Alice Smith"})

	fmt.Println(updated.Name)
	fmt.Println(updated.Email)
	// Output:
	// Alice Smith
	// alice@test.com
}

// ExampleMemoryStore_List demonstrates offset-limit pagination.
func ExampleMemoryStore_List() {
	codec, err := entity.NewStructCodec[Contact]()
	if err != nil {
		log.Fatal(err)
	}
	store := stores.NewMemoryStore(codec)

	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d"} {
		if _, err := store.Create(ctx, entity.Fields{"name": name}); err != nil {
			log.Fatal(err)
		}
	}

	page, _ := store.List(ctx, 1, 2)
	for _, c := range page {
		fmt.Println(c.ID, c.Name)
	}
	// Output:
	// 2 b
	// 3 c
}
