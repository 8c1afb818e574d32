package ledger

import "errors"

var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrAlreadyClosed   = errors.New("trade already closed")
	ErrInvalidMember   = errors.New("invalid member")
	ErrDuplicateMember = errors.New("member already exists")
	ErrInvalidBackup   = errors.New("not a journal database")
)
