// Package delivery provides the Delivery aggregate: the fulfillment record of
// an order together with its driver and vehicle assignments.
//
// A delivery is opened at the order's first payment confirmation and then
// moves Pending -> Preparing -> OutForDelivery -> Delivered. Delivered is the
// canonical completion of an order. Cancelling the order cancels its
// delivery, and rescheduling the order resets the delivery to Pending.
//
// Drivers and vehicles are recorded twice: in a legacy single-value column
// and in many-to-many assignment sets. The visible assignment is always the
// union of both.
package delivery
