package assets

var (
	assetRecordPrefix     = []byte("assets/asset/")
	portfolioRecordPrefix = []byte("assets/portfolio/")
)

func assetKey(code string) []byte {
	buf := make([]byte, len(assetRecordPrefix)+len(code))
	copy(buf, assetRecordPrefix)
	copy(buf[len(assetRecordPrefix):], code)
	return buf
}

func portfolioKey(owner string) []byte {
	buf := make([]byte, len(portfolioRecordPrefix)+len(owner))
	copy(buf, portfolioRecordPrefix)
	copy(buf[len(portfolioRecordPrefix):], owner)
	return buf
}
