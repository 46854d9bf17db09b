package model

import "time"

// Pizza represents a catalog item persisted in the `pizzas` table.
// Pizzas relate many-to-many to ingredients, categories and custom
// images through join tables; the repository layer materializes
// those collections explicitly rather than lazily. Deletion is
// logical: IsDeleted is flipped and the row stays in place so that
// a restore can bring it back unchanged.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the pizza.
//  Description – free-text description.
//  Price       – price in euro (DECIMAL(5,2) column).
//  Vegetarian  – true when the pizza is marked vegetarian.
//  Available   – whether the pizza can currently be ordered.
//  IsDeleted   – soft-delete flag; deleted rows are hidden from default listings.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Pizza struct {
	ID          uint64    // pizzas.id
	Name        string    // pizzas.name
	Description string    // pizzas.description
	Price       float64   // pizzas.price
	Vegetarian  bool      // pizzas.vegetarian
	Available   bool      // pizzas.available
	IsDeleted   bool      // pizzas.is_deleted
	CreatedAt   time.Time // pizzas.created_at
	UpdatedAt   time.Time // pizzas.updated_at
}

// PizzaHistory is a before-image snapshot of a pizza's mutable
// fields, appended in the same transaction as every successful
// update. The table is write-once; nothing updates or deletes
// rows in it.
//
// Fields:
//  ID           – primary key identifier.
//  PizzaID      – the pizza this snapshot belongs to.
//  Name         – pre-update name.
//  Description  – pre-update description.
//  Price        – pre-update price.
//  Vegetarian   – pre-update vegetarian flag.
//  Available    – pre-update availability flag.
//  DateModified – when the snapshot was appended.
type PizzaHistory struct {
	ID           uint64    // pizza_history.id
	PizzaID      uint64    // pizza_history.pizza_id
	Name         string    // pizza_history.name
	Description  string    // pizza_history.description
	Price        float64   // pizza_history.price
	Vegetarian   bool      // pizza_history.vegetarian
	Available    bool      // pizza_history.available
	DateModified time.Time // pizza_history.date_modified
}
