package models

import (
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// Collection identifies one of the record collections held by the store.
type Collection string

const (
	CollectionProducts   Collection = "products"
	CollectionInventory  Collection = "inventory"
	CollectionSales      Collection = "sales"
	CollectionSuppliers  Collection = "suppliers"
	CollectionCategories Collection = "categories"
	CollectionUsers      Collection = "users"
)

var collections = []Collection{
	CollectionProducts,
	CollectionInventory,
	CollectionSales,
	CollectionSuppliers,
	CollectionCategories,
	CollectionUsers,
}

// Collections returns the fixed set of collections declared by the schema.
func Collections() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

// ParseCollection converts a name coming from outside the program (URL, CLI)
// into a Collection.
func ParseCollection(s string) (Collection, error) {
	for _, c := range collections {
		if string(c) == s {
			return c, nil
		}
	}
	return "", srvErrors.NewUnknownCollectionError(s)
}

func (c Collection) String() string {
	return string(c)
}

// AutoKeyed reports whether the store assigns keys for this collection.
func (c Collection) AutoKeyed() bool {
	return c != CollectionInventory
}
