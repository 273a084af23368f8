// Package api provides the customer records REST API.
//
//	@title			Customer API
//	@version		1.0
//	@description	Customer records with unique, case-insensitive email addresses
//	@BasePath		/
package api
