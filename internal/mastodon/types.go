package mastodon

import (
	"bytes"
	"fmt"
	"strconv"
)

// ID is a Mastodon entity identifier. The server hands these out as
// decimal strings because they are 64-bit integers that JavaScript
// clients cannot represent as numbers; ID keeps the integer form
// internally and the string form on the wire.
type ID int64

func (i ID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = 0
		return nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("mastodon: bad id %q: %w", b, err)
	}
	*i = ID(v)
	return nil
}

// Account is the field subset of a Mastodon account this service cares
// about.
type Account struct {
	ID          ID     `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Acct        string `json:"acct"`
	Note        string `json:"note"`
	Avatar      string `json:"avatar"`
}

// List is a Mastodon follow list. Membership is not embedded; it is
// fetched per list.
type List struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// App holds the credentials of an OAuth application registered with a
// Mastodon server.
type App struct {
	ID           ID     `json:"id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}
