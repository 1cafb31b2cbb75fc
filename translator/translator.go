// Package translator maps transport outcomes onto domain result codes and
// builds the request bodies of the write operations.
package translator

import (
	"net/http"

	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/transport"
)

// Fetch translates a read. With an empty attribute the whole payload is the
// result; otherwise the payload must be an object holding that attribute.
func Fetch(response transport.Response, attribute string) (inventory.FetchCode, inventory.Value) {
	switch response.Status {
	case http.StatusOK:
	case http.StatusNotFound:
		return inventory.FetchNotFound, inventory.Null()
	default:
		return inventory.FetchFailed, inventory.Null()
	}

	if attribute == "" {
		return inventory.FetchOK, response.Payload
	}

	object, ok := inventory.ObjectFromValue(response.Payload)
	if !ok {
		return inventory.FetchAttributeMissing, inventory.Null()
	}
	value, ok := object.Attribute(attribute)
	if !ok {
		return inventory.FetchAttributeMissing, inventory.Null()
	}
	return inventory.FetchOK, value
}

// FetchSnapshot translates a list-all read. A successful status carrying
// something other than a list of objects is reported as a failure.
func FetchSnapshot(response transport.Response) (inventory.FetchCode, inventory.Snapshot) {
	code, payload := Fetch(response, "")
	if !code.OK() {
		return code, nil
	}

	snapshot, err := inventory.SnapshotFromValue(payload)
	if err != nil {
		return inventory.FetchFailed, nil
	}
	return inventory.FetchOK, snapshot
}

// PatchCheck translates the existence check that precedes every attribute
// write. The write may only proceed when proceed is true.
func PatchCheck(response transport.Response) (code inventory.PatchCode, proceed bool) {
	switch response.Status {
	case http.StatusOK:
		return inventory.PatchOK, true
	case http.StatusNotFound:
		return inventory.PatchTargetMissing, false
	default:
		return inventory.PatchCheckFailed, false
	}
}

// Patch translates the attribute write itself.
func Patch(response transport.Response) inventory.PatchCode {
	switch response.Status {
	case http.StatusAccepted:
		return inventory.PatchOK
	case http.StatusNotModified:
		return inventory.PatchUnchanged
	default:
		return inventory.PatchRejected
	}
}

func Register(response transport.Response) inventory.RegisterCode {
	switch response.Status {
	case http.StatusCreated:
		return inventory.RegisterOK
	case http.StatusConflict:
		return inventory.RegisterConflict
	default:
		return inventory.RegisterFailed
	}
}

func Delete(response transport.Response) inventory.DeleteCode {
	switch response.Status {
	case http.StatusAccepted:
		return inventory.DeleteOK
	case http.StatusNotFound:
		return inventory.DeleteNotFound
	default:
		return inventory.DeleteFailed
	}
}
