package merkle

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/powerhouse-labs/powerhouse/record"
)

// ProofNode is one step of a Merkle path: the sibling digest and whether
// it sits on the left of the pair.
type ProofNode struct {
	Sibling record.TranscriptDigest
	Left    bool
}

// Proof is an inclusion proof for a single leaf digest.
type Proof struct {
	Root  record.TranscriptDigest
	Leaf  record.TranscriptDigest
	Index int
	Path  []ProofNode
}

// BuildProof constructs an inclusion proof for the leaf at index. It fails
// for an empty leaf set or an out-of-range index. A promoted lone element
// contributes no path node; verification re-walks the same shape.
func BuildProof(leaves []record.TranscriptDigest, index int) (*Proof, error) {
	if len(leaves) == 0 {
		return nil, errors.New("merkle: cannot prove inclusion in an empty tree")
	}
	if index < 0 || index >= len(leaves) {
		return nil, errors.Errorf("merkle: index %d out of range for %d leaves", index, len(leaves))
	}

	layer := leafLayer(leaves)
	idx := index
	var path []ProofNode
	for len(layer) > 1 {
		if idx%2 == 0 {
			if idx+1 < len(layer) {
				path = append(path, ProofNode{Sibling: layer[idx+1], Left: false})
			}
		} else {
			path = append(path, ProofNode{Sibling: layer[idx-1], Left: true})
		}
		layer = nextLayer(layer)
		idx /= 2
	}

	return &Proof{
		Root:  layer[0],
		Leaf:  leaves[index],
		Index: index,
		Path:  path,
	}, nil
}

// VerifyProof recomputes the root from the leaf along the recorded path
// and compares it with the proof's advertised root.
func VerifyProof(proof *Proof) bool {
	if proof == nil {
		return false
	}
	hash := hashLeaf(proof.Leaf)
	for _, node := range proof.Path {
		if node.Left {
			hash = hashPair(node.Sibling, hash)
		} else {
			hash = hashPair(hash, node.Sibling)
		}
	}
	return hash == proof.Root
}

type proofNodeJSON struct {
	Direction string `json:"direction"`
	Sibling   string `json:"sibling"`
}

type proofJSON struct {
	Root  string          `json:"root"`
	Leaf  string          `json:"leaf"`
	Index int             `json:"index"`
	Path  []proofNodeJSON `json:"path"`
}

// MarshalJSON encodes the proof with hex digests and "L"/"R" directions.
func (p *Proof) MarshalJSON() ([]byte, error) {
	out := proofJSON{
		Root:  p.Root.Hex(),
		Leaf:  p.Leaf.Hex(),
		Index: p.Index,
		Path:  make([]proofNodeJSON, 0, len(p.Path)),
	}
	for _, node := range p.Path {
		direction := "R"
		if node.Left {
			direction = "L"
		}
		out.Path = append(out.Path, proofNodeJSON{Direction: direction, Sibling: node.Sibling.Hex()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a proof, accepting lowercase direction letters.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var in proofJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "merkle: invalid proof JSON")
	}

	root, err := record.DigestFromHex(in.Root)
	if err != nil {
		return errors.Wrap(err, "merkle: invalid root")
	}
	leaf, err := record.DigestFromHex(in.Leaf)
	if err != nil {
		return errors.Wrap(err, "merkle: invalid leaf")
	}
	if in.Index < 0 {
		return errors.Errorf("merkle: negative index %d", in.Index)
	}

	path := make([]ProofNode, 0, len(in.Path))
	for i, node := range in.Path {
		sibling, err := record.DigestFromHex(node.Sibling)
		if err != nil {
			return errors.Wrapf(err, "merkle: invalid sibling at path step %d", i)
		}
		var left bool
		switch node.Direction {
		case "L", "l":
			left = true
		case "R", "r":
		default:
			return errors.Errorf("merkle: invalid direction %q at path step %d", node.Direction, i)
		}
		path = append(path, ProofNode{Sibling: sibling, Left: left})
	}

	p.Root = root
	p.Leaf = leaf
	p.Index = in.Index
	p.Path = path
	return nil
}
