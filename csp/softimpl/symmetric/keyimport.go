package symmetric

import (
	"github.com/zhangsob/zeed/csp/interfaces"
	"github.com/zhangsob/zeed/csp/softimpl/config"
	"github.com/zhangsob/zeed/csp/softimpl/seed"
	"github.com/zhangsob/zeed/csp/softimpl/utils"
	"github.com/zhangsob/zeed/errors"
)

/* ------------------------------------------------------------------------------------------ */

type SEEDKeyImporter struct {
	config *config.Config
}

// NewSEEDKeyImporter c 可以为空，此时导入的密钥用 SHA256 计算 SKI。
func NewSEEDKeyImporter(c *config.Config) *SEEDKeyImporter {
	return &SEEDKeyImporter{config: c}
}

// KeyImport 此方法的第二个参数要么是 *SEEDKeyImportOpts，要么是 *SEEDPEMKeyImportOpts。
func (importer *SEEDKeyImporter) KeyImport(raw interface{}, opts interfaces.KeyImportOpts) (interfaces.Key, error) {
	switch o := opts.(type) {
	case *SEEDKeyImportOpts:
		return importer.importRaw(raw, o.KeySize, o.Exportable)
	case *SEEDPEMKeyImportOpts:
		pemRaw, ok := raw.([]byte)
		if !ok {
			return nil, errors.NewErrorf("invalid raw material, expected PEM bytes, but got \"%T\"", raw)
		}
		der, err := utils.PEMToSEED(pemRaw)
		if err != nil {
			return nil, errors.Wrap(err, "failed importing SEED key")
		}
		return importer.importRaw(der, 0, o.Exportable)
	default:
		return nil, errors.NewErrorf("the supported options contain [*SEEDKeyImportOpts, *SEEDPEMKeyImportOpts], but got \"%T\"", opts)
	}
}

func (importer *SEEDKeyImporter) importRaw(raw interface{}, ks seed.KeySize, exportable bool) (interfaces.Key, error) {
	if ks != 0 && !ks.Valid() {
		return nil, errors.Newf(errors.KindUnsupportedKeySize, "the supported key sizes contain [128, 256], but got \"%d\"", int(ks))
	}

	var key []byte
	switch r := raw.(type) {
	case []byte:
		if len(r) == 0 {
			return nil, errors.New(errors.KindKeyLength, "invalid raw material, nil material")
		}
		if ks == 0 {
			switch len(r) {
			case 16:
				ks = seed.KeySize128
			case 32:
				ks = seed.KeySize256
			}
		}
		if len(r) != ks.Bytes() {
			return nil, errors.Newf(errors.KindKeyLength, "invalid raw material, the length of the bytes must be 16 or 32 and match the key size, but got \"%d\"", len(r))
		}
		key = append([]byte(nil), r...)
	case string:
		if ks == 0 {
			ks = seed.KeySize128
		}
		var err error
		if key, err = utils.NormalizeASCIIKey(r, ks.Bytes()); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewErrorf("invalid raw material, expected bytes or string, but got \"%T\"", raw)
	}

	k := &SEEDKey{key: key, size: ks, exportable: exportable}
	if importer.config != nil {
		k.hashFunc = importer.config.HashFunc()
	}
	return k, nil
}
