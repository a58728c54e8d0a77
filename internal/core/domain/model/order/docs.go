// Package order contains the Order aggregate of the ordering system.
//
// The package includes:
//   - Order: the aggregate root holding identity, customer, totals, status and version
//   - Item: an order line with catalog name and price snapshotted at creation time
//   - Status: the lifecycle state machine, Pending -> Confirmed -> Shipped -> Delivered,
//     with Cancelled reachable from Pending and Confirmed
//
// Key business rules:
//   - An order has at least one item and its total is the exact sum of item subtotals
//   - Items, prices, shipping address and notes never change after creation
//   - Only the status changes afterwards, and every change increments the version
//   - Delivered and Cancelled are terminal and reject every further transition
package order
