package permission

type Permission string

// StorageWrite guards saving rendered transaction cards to shared media storage.
const StorageWrite Permission = "storage_write"
