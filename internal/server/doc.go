// Package server assembles the gogate HTTP router: the route table behind the
// navigation guard, the login and logout endpoints, health and metrics.
package server
