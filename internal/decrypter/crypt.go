// Package decrypter implements standard security handler decryption
// (RC4 and AES, revisions 2 through 6).
package decrypter

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha256"
	"crypto/sha512"
	"io"

	"github.com/pkg/errors"

	"github.com/pagemark/pdf/internal/types"
)

var ErrInvalidPassword = errors.New("encrypted PDF: invalid password")

var passwordPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41, 0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80, 0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// Decrypter decrypts strings and streams with the file key derived
// from the encryption dictionary and the user password.
type Decrypter struct {
	key []byte
	v   int
}

// New derives the file decryption key from the document's Encrypt
// dictionary, the first element of the file ID, and the password.
func New(password string, encrypt types.Dict, id string) (*Decrypter, error) {
	n, _ := encrypt["Length"].(int64)
	if n == 0 {
		n = 40
	}
	v, _ := encrypt["V"].(int64)
	r, _ := encrypt["R"].(int64)
	o, _ := encrypt["O"].(string)
	u, _ := encrypt["U"].(string)
	p, _ := encrypt["P"].(int64)

	if n%8 != 0 || n < 40 || (n > 128 && n != 256) {
		return nil, errors.Errorf("malformed PDF: %d-bit encryption key", n)
	}
	if !cryptFilterOK(v, encrypt) {
		return nil, errors.Errorf("unsupported PDF: encryption version V=%d", v)
	}
	if r < 2 || r == 5 || r > 6 {
		return nil, errors.Errorf("malformed PDF: encryption revision R=%d", r)
	}

	pw := []byte(password)
	if r == 6 {
		ue, _ := encrypt["UE"].(string)
		perms, _ := encrypt["Perms"].(string)
		return newR6(pw, []byte(u), []byte(ue), []byte(perms))
	}

	if len(o) != 32 || len(u) != 32 {
		return nil, errors.New("malformed PDF: missing O or U encryption parameter")
	}

	key := legacyKey(pw, o, uint32(p), id, int(n), int(r))
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "malformed PDF: invalid RC4 key")
	}

	// Recompute U from the padded password and compare.
	var w []byte
	if r == 2 {
		w = make([]byte, 32)
		copy(w, passwordPad)
		c.XORKeyStream(w, w)
	} else {
		h := md5.New()
		h.Write(passwordPad)
		h.Write([]byte(id))
		w = h.Sum(nil)
		c.XORKeyStream(w, w)
		for i := 1; i <= 19; i++ {
			k := make([]byte, len(key))
			copy(k, key)
			for j := range k {
				k[j] ^= byte(i)
			}
			c, _ = rc4.NewCipher(k)
			c.XORKeyStream(w, w)
		}
	}
	if !bytes.HasPrefix([]byte(u), w) {
		return nil, ErrInvalidPassword
	}

	return &Decrypter{key: key, v: int(v)}, nil
}

// legacyKey implements Algorithm 2 of ISO 32000-1 for revisions 2-4.
func legacyKey(pw []byte, o string, p uint32, id string, n, r int) []byte {
	h := md5.New()
	if len(pw) >= 32 {
		h.Write(pw[:32])
	} else {
		h.Write(pw)
		h.Write(passwordPad[:32-len(pw)])
	}
	h.Write([]byte(o))
	h.Write([]byte{byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)})
	h.Write([]byte(id))
	key := h.Sum(nil)

	if r >= 3 {
		for i := 0; i < 50; i++ {
			h.Reset()
			h.Write(key[:n/8])
			key = h.Sum(key[:0])
		}
		return key[:n/8]
	}
	return key[:40/8]
}

func newR6(password, u, ue, perms []byte) (*Decrypter, error) {
	if len(password) > 127 {
		password = password[:127]
	}
	if len(u) < 48 {
		return nil, errors.Errorf("malformed PDF: r6 U entry of %d bytes", len(u))
	}
	u = u[:48]

	if !bytes.Equal(hashR6(password, u[32:40]), u[:32]) {
		return nil, ErrInvalidPassword
	}

	intermediate := hashR6(password, u[40:48])
	b, err := aes.NewCipher(intermediate)
	if err != nil {
		return nil, err
	}
	var iv [16]byte
	key := make([]byte, 32)
	cipher.NewCBCDecrypter(b, iv[:]).CryptBlocks(key, ue)

	b, err = aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	dec := make([]byte, 16)
	b.Decrypt(dec, perms)
	if string(dec[9:12]) != "adb" {
		return nil, errors.New("malformed PDF: Perms did not validate")
	}

	return &Decrypter{key: key, v: 5}, nil
}

// hashR6 implements Algorithm 2.B of ISO 32000-2.
func hashR6(p, salt []byte) []byte {
	h := sha256.New()
	h.Write(p)
	h.Write(salt)
	k := h.Sum(nil)

	for i := 1; ; i++ {
		k1 := bytes.Repeat(append(p, k...), 64)
		b, err := aes.NewCipher(k[:16])
		if err != nil {
			panic(err)
		}
		e := make([]byte, len(k1))
		cipher.NewCBCEncrypter(b, k[16:32]).CryptBlocks(e, k1)

		var mod int
		for j := 0; j < 16; j++ {
			mod += int(e[j])
		}
		switch mod % 3 {
		case 0:
			v := sha256.Sum256(e)
			k = v[:]
		case 1:
			v := sha512.Sum384(e)
			k = v[:]
		case 2:
			v := sha512.Sum512(e)
			k = v[:]
		}

		if i >= 64 && e[len(e)-1] <= byte(i-32) {
			break
		}
	}
	return k[:32]
}

func (d *Decrypter) aes() bool { return d.v == 4 || d.v == 5 }

// Decrypt wraps rd with the cipher for the object at ptr. A nil
// receiver passes rd through unchanged.
func (d *Decrypter) Decrypt(ptr types.Objptr, rd io.Reader) (io.Reader, error) {
	if d == nil {
		return rd, nil
	}

	key := d.objectKey(ptr)
	if d.aes() {
		cb, err := aes.NewCipher(key)
		if err != nil {
			return nil, errors.Wrap(err, "bad AES key")
		}
		iv := make([]byte, 16)
		io.ReadFull(rd, iv)
		cbc := cipher.NewCBCDecrypter(cb, iv)
		return &cbcReader{cbc: cbc, rd: rd, buf: make([]byte, 16)}, nil
	}
	c, _ := rc4.NewCipher(key)
	return &cipher.StreamReader{S: c, R: rd}, nil
}

func (d *Decrypter) objectKey(ptr types.Objptr) []byte {
	if d.v == 5 {
		return d.key
	}
	h := md5.New()
	h.Write(d.key)
	h.Write([]byte{byte(ptr.ID), byte(ptr.ID >> 8), byte(ptr.ID >> 16), byte(ptr.Gen), byte(ptr.Gen >> 8)})
	if d.v == 4 {
		h.Write([]byte("sAlT"))
	}
	return h.Sum(nil)
}

type cbcReader struct {
	cbc  cipher.BlockMode
	rd   io.Reader
	buf  []byte
	pend []byte
}

func (r *cbcReader) Read(b []byte) (n int, err error) {
	if len(r.pend) == 0 {
		if _, err = io.ReadFull(r.rd, r.buf); err != nil {
			return 0, err
		}
		r.cbc.CryptBlocks(r.buf, r.buf)
		r.pend = r.buf
	}
	n = copy(b, r.pend)
	r.pend = r.pend[n:]
	return n, nil
}

func cryptFilterOK(v int64, encrypt types.Dict) bool {
	switch v {
	case 1, 2:
		return true
	case 4, 5:
	default:
		return false
	}

	cf, ok := encrypt["CF"].(types.Dict)
	if !ok {
		return false
	}
	stmf, ok := encrypt["StmF"].(types.Name)
	if !ok {
		return false
	}
	strf, ok := encrypt["StrF"].(types.Name)
	if !ok || stmf != strf {
		return false
	}
	param, ok := cf[stmf].(types.Dict)
	if !ok {
		return false
	}
	if param["AuthEvent"] != nil && param["AuthEvent"] != types.Name("DocOpen") {
		return false
	}

	keyLen := int64(16)
	cfm := types.Name("AESV2")
	if v == 5 {
		keyLen = 32
		cfm = types.Name("AESV3")
	}
	if param["Length"] != nil && param["Length"] != keyLen {
		return false
	}
	return param["CFM"] == cfm
}
