package history

import (
	"fmt"

	"github.com/arlenmoss/strophe/kernel/convo"
)

// TruncateToolReturns caps the content length of tool returns outside
// the protected tail. Structured content is serialized before it is
// measured and truncated; tool name and call id survive untouched. A
// non-positive threshold returns the input unchanged, same identity.
func TruncateToolReturns(messages []convo.Message, maxBytes, protectedTail int) []convo.Message {
	if maxBytes <= 0 || len(messages) == 0 {
		return messages
	}
	if protectedTail < 0 {
		protectedTail = 0
	}
	cutoff := len(messages) - protectedTail
	if cutoff <= 0 {
		return messages
	}

	var out []convo.Message
	for i, msg := range messages {
		if i >= cutoff || msg.Kind != convo.MessageToolReturns {
			if out != nil {
				out = append(out, msg)
			}
			continue
		}
		replaced := msg
		var newReturns []convo.ToolReturn
		for j, ret := range msg.Returns {
			content := ret.ContentText()
			if len(content) <= maxBytes {
				if newReturns != nil {
					newReturns = append(newReturns, ret)
				}
				continue
			}
			if newReturns == nil {
				newReturns = append([]convo.ToolReturn(nil), msg.Returns[:j]...)
			}
			truncated := ret
			truncated.Content = fmt.Sprintf("%s\n[output truncated, original length %d bytes]", content[:maxBytes], len(content))
			newReturns = append(newReturns, truncated)
		}
		if newReturns == nil {
			if out != nil {
				out = append(out, msg)
			}
			continue
		}
		replaced.Returns = newReturns
		if out == nil {
			out = append([]convo.Message(nil), messages[:i]...)
		}
		out = append(out, replaced)
	}
	if out == nil {
		return messages
	}
	return out
}
