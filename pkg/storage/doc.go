// Package storage writes captured images to the output directory.
//
// Writes go to a temporary file in the same directory and are renamed
// into place, so an interrupted run never leaves a truncated image under
// its final name. An existing file with the same name is replaced.
//
//	manager, err := storage.NewManager("files", true)
//	if err != nil {
//	    return err
//	}
//	path, err := manager.Save("12345_p0_master1200.jpg", bytes.NewReader(body))
//
// Manager is safe for concurrent use by the write pool.
package storage
