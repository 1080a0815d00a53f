package loader

// pluginExt is the native shared-library extension on this platform.
const pluginExt = ".dylib"
