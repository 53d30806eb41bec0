// Package document writes and reads UJO documents.
//
// A document is a 7-byte header followed by exactly one top-level list,
// map or table. Writer appends typed values to a Sink while enforcing the
// document grammar; Reader decodes the same grammar from a Source and
// yields Elements.
//
// # Writing
//
//	w, err := document.NewMemoryWriter()
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	_ = w.MapOpen()
//	_ = w.AddStringUTF8("pi")
//	_ = w.AddFloat64(3.14159)
//	_ = w.MapClose()
//
//	data := bytes.Clone(w.Bytes())
//
// # Reading
//
//	r, _ := document.NewMemoryReader(data)
//	err := r.Parse(func(e *document.Element) error {
//	    fmt.Println(e)
//	    return nil
//	})
//
// Terminators are reported as elements of type format.TypeTerminator;
// Element.Closes tells which container ended.
//
// # Errors
//
// Errors wrap the sentinels of package errs. Writer precondition failures
// leave the writer usable; any Reader failure is final.
package document
