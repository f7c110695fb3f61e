//go:generate go run generator.go

package main

import (
	_ "github.com/wanderlog/wanderlog/datasources/exifgps"
	_ "github.com/wanderlog/wanderlog/datasources/gpx"
	_ "github.com/wanderlog/wanderlog/datasources/spot"
)
