package swap

import "strconv"

var (
	poolRecordPrefix  = []byte("swap/pool/")
	orderRecordPrefix = []byte("swap/order/")
	orderCounterKey   = []byte("swap/order/counter")
	ownerOrdersPrefix = []byte("swap/orders/owner/")
)

func poolKey(canonical string) []byte {
	buf := make([]byte, len(poolRecordPrefix)+len(canonical))
	copy(buf, poolRecordPrefix)
	copy(buf[len(poolRecordPrefix):], canonical)
	return buf
}

func orderKey(id uint64) []byte {
	encoded := strconv.FormatUint(id, 10)
	buf := make([]byte, len(orderRecordPrefix)+len(encoded))
	copy(buf, orderRecordPrefix)
	copy(buf[len(orderRecordPrefix):], encoded)
	return buf
}

func ownerOrdersKey(owner string) []byte {
	buf := make([]byte, len(ownerOrdersPrefix)+len(owner))
	copy(buf, ownerOrdersPrefix)
	copy(buf[len(ownerOrdersPrefix):], owner)
	return buf
}
