// Package order provides the Order aggregate of the storefront back office:
// a customer purchase that moves through approval, payment, fulfillment,
// cancellation and rescheduling.
//
// The package includes:
//   - Order: the aggregate root holding status, payment flag, items and schedule
//   - Status: the approval funnel state machine
//   - PaymentFlag: the ToPay/Paid flag mirrored by the order's Transaction
//   - Item: an immutable order line
//
// Key business rules:
//   - New orders start in PendingApproval with payment flag ToPay
//   - Only a PendingApproval order can be approved or rejected; approving an order
//     that is still Paid (a rescheduled one) lands it in Processing
//   - Cancellation is allowed from PendingApproval, WaitingPayment and Processing
//     and is idempotent on an already cancelled order
//   - Payment can not be confirmed on a Cancelled or Rejected order
//   - A cancelled order can be rescheduled by its owner at most MaxReschedules times,
//     which rewinds it to PendingApproval
//
// Stock bookkeeping is not the aggregate's concern: the payment flag is the single
// source of truth for whether the order's items are currently deducted.
package order
