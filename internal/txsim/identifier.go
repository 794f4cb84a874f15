package txsim

import (
	"encoding/binary"
	"encoding/json"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/spf13/cast"
)

// Hashes, block hashes and selectors produced here are opaque random values
// for display. They are not computed by any hash function and carry no
// integrity guarantee.

const unknownSignature = "unknown()"

var functionSignatures = map[Action]string{
	ActionCreateBatch:           "createDrugBatch(string,uint256,uint256)",
	ActionTransferToDistributor: "transferToDistributor(uint256,address)",
	ActionTransferToHospital:    "transferToHospital(uint256,address)",
	ActionDispenseToPatient:     "dispenseToPatient(uint256,address,uint256)",
	ActionVerifyDrug:            "verifyDrug(uint256,bytes32,bytes32[])",
	ActionGrantRole:             "grantRole(bytes32,address)",
	ActionRequestDrugs:          "requestDrugs(address,uint256,uint256,string)",
	ActionApproveRequest:        "approveRequest(uint256)",
	ActionRejectRequest:         "rejectRequest(uint256)",
	ActionUpdateHealthRecord:    "updateHealthRecord(address,string)",
	ActionReportExpiredDrug:     "reportExpiredDrug(uint256,string)",
}

// identifiers mints cosmetic ledger identifiers. It is not safe for
// concurrent use; the service calls it with its mutex held.
type identifiers struct {
	rnd       Randomness
	selectors map[string][4]byte
}

func newIdentifiers(rnd Randomness) *identifiers {
	return &identifiers{
		rnd:       rnd,
		selectors: make(map[string][4]byte),
	}
}

func (g *identifiers) transactionHash() string {
	var h common.Hash
	g.rnd.Read(h[:])
	return h.Hex()
}

// blockHash returns a hash whose leading eight bytes hold height.
func (g *identifiers) blockHash(height uint64) string {
	var h common.Hash
	binary.BigEndian.PutUint64(h[:8], height)
	g.rnd.Read(h[8:])
	return h.Hex()
}

func (g *identifiers) address() string {
	var a common.Address
	g.rnd.Read(a[:])
	return a.Hex()
}

// selector returns the 4-byte selector for signature, minting it on first use.
func (g *identifiers) selector(signature string) [4]byte {
	sel, ok := g.selectors[signature]
	if !ok {
		g.rnd.Read(sel[:])
		g.selectors[signature] = sel
	}

	return sel
}

// calldata encodes the action selector followed by one 32-byte word per
// encodable payload field, visiting keys in sorted order.
func (g *identifiers) calldata(action Action, payload Payload) string {
	signature, ok := functionSignatures[action]
	if !ok {
		signature = unknownSignature
	}

	sel := g.selector(signature)
	data := make([]byte, 0, 4+32*len(payload))
	data = append(data, sel[:]...)

	for _, key := range slices.Sorted(maps.Keys(payload)) {
		word, ok := g.encodeWord(payload[key])
		if !ok {
			continue
		}
		data = append(data, word[:]...)
	}

	return hexutil.Encode(data)
}

// encodeWord mimics ABI encoding: strings become random words, numbers
// big-endian two's complement, bools 0 or 1. Other values are skipped.
func (g *identifiers) encodeWord(value any) ([32]byte, bool) {
	var word [32]byte

	switch v := value.(type) {
	case string:
		g.rnd.Read(word[:])
		return word, true
	case bool:
		if v {
			word[31] = 1
		}
		return word, true
	case uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToUint64E(v)
		if err != nil {
			return word, false
		}
		return uint256.NewInt(n).Bytes32(), true
	case json.Number:
		if n, err := uint256.FromDecimal(v.String()); err == nil {
			return n.Bytes32(), true
		}

		n, err := cast.ToInt64E(v)
		if err != nil {
			return word, false
		}
		return signedWord(n), true
	case int, int8, int16, int32, int64, float32, float64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return word, false
		}
		return signedWord(n), true
	default:
		return word, false
	}
}

func signedWord(n int64) [32]byte {
	if n >= 0 {
		return uint256.NewInt(uint64(n)).Bytes32()
	}

	magnitude := uint256.NewInt(uint64(-n))
	return new(uint256.Int).Neg(magnitude).Bytes32()
}
