// Package client implements vaultctl, the command line client of the claim
// vault. It manages sealed signer keys, derives addresses, builds Merkle
// trees and proofs for a claim list and submits signed requests.
//
// Commands are registered on a go-flags parser; each command is a struct
// with an Execute method and reaches shared options through the App.
package client
