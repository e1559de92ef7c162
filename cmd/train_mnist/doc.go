// Package main provides a program for training a linear handwritten digit classifier on
// the MNIST dataset by hill climbing. Every step adds random noise to all weights and keeps
// the result only when more training digits are recognized.
package main
