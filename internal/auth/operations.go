package auth

// Operation names gate one class of action each. They are stored on the user
// record, carried inside the token, and checked by the authorization gate.
const (
	OpUserUpsert = "UserUpsert" // user create, update
	OpUserDelete = "UserDelete" // user delete
	OpUserList   = "UserList"   // user get, list
	OpProdUpsert = "ProdUpsert" // product create, update, patch
	OpProdDelete = "ProdDelete" // product delete
	OpProdList   = "ProdList"   // product get, list
)

// AllOperations lists every known operation, used by the seeder and by
// validation of user payloads.
var AllOperations = []string{
	OpUserUpsert,
	OpUserDelete,
	OpUserList,
	OpProdUpsert,
	OpProdDelete,
	OpProdList,
}

// IsKnownOperation reports whether name is part of the fixed operation set.
func IsKnownOperation(name string) bool {
	for _, op := range AllOperations {
		if op == name {
			return true
		}
	}
	return false
}
