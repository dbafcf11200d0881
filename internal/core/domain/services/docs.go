// Package services holds domain logic that spans aggregates of the back
// office.
//
// The package includes:
//   - StockReconciler: turns an order's payment flag change into the stock
//     adjustments that keep inventory consistent with it
package services
