// Package types defines the entity types, dashboard payload, Config, and
// standard errors for the Waybill order ledger.
package types
