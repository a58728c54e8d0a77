// Package kernel provides the shared domain primitives of the ordering system.
//
// The package includes:
//   - UUID: a value object for aggregate and entity identifiers
//   - Money: a non-negative amount held at two fractional digits
//
// Both types are immutable. Their zero values are invalid and fail Validate,
// so construct them through NewUUID, UUIDFromString, NewMoney and friends.
package kernel
