// Package main is the entry point for the folio API server.
package main

func main() {
	Execute()
}
