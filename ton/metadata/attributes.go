package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Onchain attributes are keyed by sha256 of their name.
type attribute struct {
	name  string
	hash  string
	field func(*Onchain) **string
}

var knownAttributes = []attribute{
	{"uri", "70e5d7b6a29b392f85076fe15ca2f2053c56c2338728c4e33c9e8ddb1ee827cc", func(o *Onchain) **string { return &o.URI }},
	{"name", "82a3537ff0dbce7eec35d69edc3a189ee6f17d82f353a553f9aa96cb0be3ce89", func(o *Onchain) **string { return &o.Name }},
	{"description", "c9046f7a37ad0ea7cee73355984fa5428982f8b37c8f7bcec91f7ac71a7cd104", func(o *Onchain) **string { return &o.Description }},
	{"image", "6105d6cc76af400325e94d588ce511be5bfdbb73b437dc51eca43917d7a43e3d", func(o *Onchain) **string { return &o.Image }},
	{"image_data", "d9a88ccec79eef59c84b671136a20ece4cd00caaad5bc47e2c208829154ee9e4", func(o *Onchain) **string { return &o.ImageData }},
	{"symbol", "b76a7ca153c24671658335bbd08946350ffc621fa1c516e7123095d4ffd5c581", func(o *Onchain) **string { return &o.Symbol }},
	{"decimals", "ee80fd2f1e03480e2282363596ee752d7bb27f50776b95086a0279189675923e", func(o *Onchain) **string { return &o.Decimals }},
}

var attributesByHash = map[string]attribute{}

func init() {
	for _, a := range knownAttributes {
		h := sha256.Sum256([]byte(a.name))
		if hex.EncodeToString(h[:]) != a.hash {
			panic(fmt.Sprintf("attribute %q hash mismatch", a.name))
		}
		attributesByHash[a.hash] = a
	}
}

func attributeKey(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:]
}
