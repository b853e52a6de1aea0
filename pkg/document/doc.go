/*
Package document owns every file system touch made while patching.

	+-------------+      +-------------+      +-------------+
	|    Load     | ---> |  (patcher)  | ---> |    Save     |
	| read whole  |      |  in memory  |      | overwrite   |
	+-------------+      +-------------+      +------+------+
	                                                 |
	                                          +------+------+
	                                          |   Verify    |
	                                          |  re-read    |
	                                          +-------------+

🎯 Purpose:
- Read the target file fully into a Document
- Write it back in full, in place or atomically
- Keep an optional .bak copy
- Re-read and check post-conditions

⚡ Errors:
- Every read or write failure is an *IOError carrying the operation and path
- Verify reports ErrVerificationMismatch but never rolls a write back

📝 Notes:
In-place saves are not crash safe. Use Options.Atomic to write through a
pending temp file that is renamed over the target. There is no locking, so
concurrent runs against one path must be serialized by the caller.
*/
package document
