package notification

import (
	"encoding/json"
	"sort"
)

func sortInbox(items []InboxItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
