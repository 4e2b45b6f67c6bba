package logging

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

const maxChainDepth = 50

// errorChain walks err and returns the message of every link, outermost
// first, with the op of each Station-Manager DetailedError ("" for plain
// errors).
func errorChain(err error) (chain []string, ops []string) {
	seen := map[string]bool{}

	for visited := 0; err != nil && visited < maxChainDepth; visited++ {
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, emptyString)
		err = stderrs.Unwrap(err)
	}
	return chain, ops
}

// Exception logs msg at ERROR with err's chain appended as
// error="outer -> ... -> root" and, when the innermost link carries one,
// error_op=<op>.
func (l *Logger) Exception(err error, msg string) error {
	if l == nil {
		return ErrLoggerClosed
	}
	if err == nil || !l.Enabled(ErrorLevel) {
		return l.Log(ErrorLevel, msg)
	}

	chain, ops := errorChain(err)

	var b strings.Builder
	b.WriteString(msg)
	appendPair(&b, "error", strings.Join(chain, " -> "))
	if rootOp := ops[len(ops)-1]; rootOp != emptyString {
		appendPair(&b, "error_op", rootOp)
	}
	return l.Log(ErrorLevel, b.String())
}
