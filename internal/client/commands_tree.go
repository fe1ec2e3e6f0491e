package client

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-claim-vault/internal/merkle"
	"github.com/MKhiriev/go-claim-vault/models"
)

var ErrClaimNotInList = errors.New("claim index not found in claim list")

// claimList is the input of tree and redeem: a JSON array of claims. The
// order of the array is the leaf order of the tree.
type claimList struct {
	Claims string `short:"c" long:"claims" required:"yes" description:"JSON claim list, - for stdin"`
	Kind   string `long:"kind" default:"single" choice:"single" choice:"multi" description:"schedule kind"`
}

func (l claimList) load() ([]models.Claim, models.ScheduleKind, *merkle.Tree, error) {
	var kind models.ScheduleKind
	if err := kind.UnmarshalText([]byte(l.Kind)); err != nil {
		return nil, 0, nil, err
	}

	var claims []models.Claim
	if err := readJSON(l.Claims, &claims); err != nil {
		return nil, 0, nil, err
	}

	tree, err := merkle.NewClaimTree(claims, kind)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("build tree: %w", err)
	}
	return claims, kind, tree, nil
}

// proofFor finds the claim whose Index is index, not the array position.
func proofFor(claims []models.Claim, tree *merkle.Tree, index uint16) (models.Claim, []models.Hash, error) {
	for pos, claim := range claims {
		if claim.Index != index {
			continue
		}
		proof, err := tree.Proof(pos)
		if err != nil {
			return models.Claim{}, nil, err
		}
		return claim, proof, nil
	}
	return models.Claim{}, nil, fmt.Errorf("%w: %d", ErrClaimNotInList, index)
}

type treeCommand struct {
	app *App
	claimList
}

type treeClaim struct {
	Claim models.Claim  `json:"claim"`
	Leaf  models.Hash   `json:"leaf"`
	Proof []models.Hash `json:"proof"`
}

type treeResult struct {
	Kind       models.ScheduleKind `json:"kind"`
	ClaimCount int                 `json:"claim_count"`
	Root       models.Hash         `json:"merkle_root"`
	Claims     []treeClaim         `json:"claims"`
}

func (c *treeCommand) Execute([]string) error {
	claims, kind, tree, err := c.load()
	if err != nil {
		return err
	}

	res := treeResult{Kind: kind, ClaimCount: len(claims), Root: tree.Root(), Claims: make([]treeClaim, 0, len(claims))}
	for i, claim := range claims {
		proof, err := tree.Proof(i)
		if err != nil {
			return err
		}
		res.Claims = append(res.Claims, treeClaim{Claim: claim, Leaf: tree.Leaf(i), Proof: proof})
	}

	return c.app.print(res)
}
