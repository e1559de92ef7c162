// Package trainer provides the evaluation and hill climbing training loop of the linear classifier.
// Each step perturbs every weight at once and keeps the candidate only when it classifies
// strictly more samples correctly, no gradients are computed.
package trainer
