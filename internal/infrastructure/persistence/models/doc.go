// Package models contains GORM persistence models and their converters
// to and from domain entities. Domain types stay free of storage concerns;
// every repository goes through this package.
package models
