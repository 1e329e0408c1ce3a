// Package integration_test provides end-to-end integration tests for the simpledb library.
//
// These tests run the client against a real MySQL server started with
// testcontainers, so they exercise row-value IN lists, SHOW TABLES, CREATE
// TABLE ... LIKE and server-side session kills that SQLite cannot.
//
// # Running Integration Tests
//
// Integration tests are skipped by default when using -short flag:
//
//	go test -short ./...           # Skips integration tests
//	go test ./test/integration/... # Runs integration tests
//
// Set SKIP_INTEGRATION_TESTS=1 to skip container startup on machines without Docker.
package integration_test
