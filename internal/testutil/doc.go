// Package testutil contains helper builders and fakes used across tests to
// reduce boilerplate when constructing conversations, scripted agents and
// event reporters. They are not intended for production usage.
package testutil
