package tabula

// Version is the released version of tabula.
const Version = "0.3.0"
