// Package sample generates synthetic candidate batches used to exercise the
// acceptance scorer at volume on the classification page.
package sample
