// Package inventory models stock counters kept on products and product
// variations, and the movements applied to them.
//
// A variation with its own counter is stocked independently; a variation
// without one draws from its product. Thresholds always come from the
// product.
package inventory
