package interfaces

import "hash"

/* ------------------------------------------------------------------------------------------ */

type KeyDeriver interface {
	KeyDeriv(key Key, opts KeyDerivOpts) (Key, error)
}

type KeyImporter interface {
	KeyImport(raw interface{}, opts KeyImportOpts) (Key, error)
}

/* ------------------------------------------------------------------------------------------ */

type Encrypter interface {
	Encrypt(key Key, plaintext []byte, opts EncrypterOpts) ([]byte, error)
}

type Decrypter interface {
	Decrypt(key Key, ciphertext []byte, opts DecrypterOpts) ([]byte, error)
}

/* ------------------------------------------------------------------------------------------ */

type Hasher interface {
	Hash(msg []byte, opts HashOpts) ([]byte, error)
	GetHash(opts HashOpts) (hash.Hash, error)
}
