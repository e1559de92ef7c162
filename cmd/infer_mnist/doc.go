// Package main provides a program for measuring a trained linear MNIST digit classifier
// on the train and test sets.
package main
